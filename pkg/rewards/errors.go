package rewards

import "fmt"

// InvalidRedistributionError is a configuration error: the redistribution
// rules in the epoch config are malformed. It is raised during validation,
// before any allocation runs, and is fatal.
type InvalidRedistributionError struct {
	Reason string
}

func (e *InvalidRedistributionError) Error() string {
	return fmt.Sprintf("invalid redistribution config: %s", e.Reason)
}

// MissingManagerAccountError means the designated manager/custodian address
// was not present in the holder snapshot. The staking track has no funding
// source without it, so this is a fatal misconfiguration.
type MissingManagerAccountError struct {
	Address string
}

func (e *MissingManagerAccountError) Error() string {
	return fmt.Sprintf("missing manager account at address %s", e.Address)
}
