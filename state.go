package qcircuit

/*
DriverState is the position of a Circuit in its single-use sequence. A run
moves strictly forward through the states; Failed is terminal.
*/
type DriverState int

const (
	Uninitialized DriverState = iota
	Prepared
	OracleApplied
	Rotated
	Measured
	Failed
)

func (s DriverState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Prepared:
		return "prepared"
	case OracleApplied:
		return "oracle-applied"
	case Rotated:
		return "rotated"
	case Measured:
		return "measured"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
