package job

import (
	"fmt"
	"strconv"
	"strings"

	"marketplace/internal/pkg/errs"
)

// DefaultFirstOrderNumber is used when no job has been numbered yet.
const DefaultFirstOrderNumber OrderNumber = 1000

// OrderNumber is the sequential human-readable job number, rendered "#1000".
type OrderNumber int64

func (n OrderNumber) String() string {
	return fmt.Sprintf("#%d", int64(n))
}

func (n OrderNumber) Next() OrderNumber {
	return n + 1
}

func (n OrderNumber) IsAssigned() bool {
	return n > 0
}

func ParseOrderNumber(s string) (OrderNumber, error) {
	v, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || v <= 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("order number", fmt.Errorf("%q is not an order number", s))
	}
	return OrderNumber(v), nil
}
