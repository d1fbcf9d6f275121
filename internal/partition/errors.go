package partition

import "errors"

var (
	// ErrNoPartition is returned when the collection cannot be split into two sublists with equal sums.
	ErrNoPartition = errors.New("no equal-sum partition exists for the provided values")
	// ErrStepLimitExceeded is returned when the search visits more states than the configured limit.
	ErrStepLimitExceeded = errors.New("partition search exceeded the configured step limit")
	// ErrInvalidPartition is returned by Verify when a partition does not split the collection evenly.
	ErrInvalidPartition = errors.New("invalid partition")
	// ErrSumOverflow is returned by CheckSum when the values cannot be summed within int64.
	ErrSumOverflow = errors.New("values overflow int64 summation")
)
