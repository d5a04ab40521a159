package health

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mvs-org/mvsd/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAll(t *testing.T) {
	ctx := context.Background()

	failing := func(context.Context, bool) (int, string, error) {
		return http.StatusServiceUnavailable, "not started", errors.NewServiceError("ledger closed")
	}

	nested := func(context.Context, bool) (int, string, error) {
		return CheckAll(ctx, false, []Check{{Name: "inner", Check: OK}})
	}

	t.Run("all ok", func(t *testing.T) {
		status, body, err := CheckAll(ctx, false, []Check{{Name: "a", Check: OK}, {Name: "b", Check: nested}})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, status)

		var r report
		require.NoError(t, json.Unmarshal([]byte(body), &r))
		require.Len(t, r.Dependencies, 2)
		assert.Equal(t, "OK", r.Dependencies[0].Message)
		assert.Contains(t, string(r.Dependencies[1].Details), `"resource":"inner"`)
	})

	t.Run("one failure", func(t *testing.T) {
		status, body, err := CheckAll(ctx, false, []Check{{Name: "a", Check: OK}, {Name: "ledger", Check: failing}})
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Contains(t, body, "ledger closed")
	})

	t.Run("no checks", func(t *testing.T) {
		status, _, err := CheckAll(ctx, true, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, status)
	})
}
