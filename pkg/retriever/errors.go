package retriever

import "fmt"

// ValidationError reports a malformed embedding batch: the provider did not
// return one fixed-length vector per input text. The triggering Index call
// fails; previously indexed data is untouched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid embedding output: %s", e.Reason)
}

// DimensionMismatchError reports an embedding batch whose dimensionality
// disagrees with the dimensionality fixed by the first successful Index
// call. The whole batch is rejected; no partial insert happens.
type DimensionMismatchError struct {
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: index has %d, batch has %d", e.Expected, e.Got)
}
