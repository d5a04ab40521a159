package ledger

import (
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
)

// GetSpend returns the input that spent point, or ErrNotFound if the
// output is unspent.
func (l *Ledger) GetSpend(point model.Point) (*Spend, error) {
	return readRetry(l, func() (*Spend, error) {
		return l.spend(point)
	})
}

func (l *Ledger) spend(point model.Point) (*Spend, error) {
	if err := l.checkStarted(); err != nil {
		return nil, err
	}

	value, err := l.table(spendTable).get(point.Bytes())
	if err != nil {
		return nil, err
	}

	if value == nil {
		return nil, errors.NewNotFoundError("output %s is not spent", point)
	}

	return decodeSpend(value)
}

func (l *Ledger) IsOutputSpent(point model.Point) (bool, error) {
	_, err := l.GetSpend(point)
	if errors.Is(err, errors.ErrNotFound) {
		return false, nil
	}

	return err == nil, err
}
