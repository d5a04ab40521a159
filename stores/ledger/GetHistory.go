package ledger

import (
	"encoding/binary"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// GetHistory returns the history rows of an address at or above fromHeight
// in height order. A zero limit returns every row.
func (l *Ledger) GetHistory(addressHash chainhash.Hash, limit int, fromHeight uint32) ([]*HistoryRow, error) {
	return readRetry(l, func() ([]*HistoryRow, error) {
		if err := l.checkStarted(); err != nil {
			return nil, err
		}

		var (
			rows    []*HistoryRow
			scanErr error
		)

		start := binary.BigEndian.AppendUint32(append([]byte(nil), addressHash[:]...), fromHeight)

		err := l.table(historyRows).scanFrom(addressHash[:], start, func(key, value []byte) bool {
			row, err := decodeHistoryRow(key, value)
			if err != nil {
				scanErr = err
				return false
			}

			rows = append(rows, row)

			return limit <= 0 || len(rows) < limit
		})
		if err != nil {
			return nil, err
		}

		return rows, scanErr
	})
}
