package http_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/ignitofy-engine/internal/core/domain"
)

func TestTransferHandler_ExportThenImport(t *testing.T) {
	env, _ := seedStats(t)

	w := env.do("GET", "/api/v1/export", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ignitofy-backup-2024-03-10.json")

	var doc struct {
		Habits  []habitJSON `json:"habits"`
		Version string      `json:"version"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, domain.ExportVersion, doc.Version)
	require.Len(t, doc.Habits, 2)

	backup := w.Body.String()

	fresh := setupRouter()
	w = fresh.do("POST", "/api/v1/import", backup)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"imported":2`)

	list := fresh.habits.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Run", list[0].Name)
	assert.Equal(t, 3, list[0].Streak())
}

func TestTransferHandler_ImportRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Not JSON", `not json`},
		{"Missing habits", `{"version": "1.0"}`},
		{"Habit without emoji", `{"habits": [{"id": "a", "name": "Run"}]}`},
		{"Duplicate ids", `{"habits": [{"id": "a", "name": "Run", "emoji": "x"}, {"id": "a", "name": "Read", "emoji": "y"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupRouter()
			env.seed(t, "Existing")

			w := env.do("POST", "/api/v1/import", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			list := env.habits.List()
			require.Len(t, list, 1)
			assert.Equal(t, "Existing", list[0].Name)
		})
	}
}

func TestTransferHandler_ImportLenientFields(t *testing.T) {
	env := setupRouter()

	body := `{"habits": [{"id": "a", "name": "Run", "emoji": "🏃", "datesCompleted": ["2024-03-10", "2024-03-09"], "streak": 99}]}`
	w := env.do("POST", "/api/v1/import", body)

	require.Equal(t, http.StatusOK, w.Code)
	h, err := env.habits.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 2, h.Streak(), "imported streak is recomputed")
	assert.False(t, h.CreatedAt.IsZero())
	assert.True(t, strings.HasPrefix(w.Body.String(), "{"))
}
