package sheet

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowRef_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want RowRef
	}{
		{`3`, 3},
		{`3.0`, 3},
		{`"7"`, 7},
		{`null`, 0},
		{`""`, 0},
		{`"existing_row_number_if_updating"`, 0},
		{`0`, 0},
		{`-2`, 0},
		{`2.5`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var r RowRef
			require.NoError(t, json.Unmarshal([]byte(tt.in), &r))
			assert.Equal(t, tt.want, r)
		})
	}
}

func TestRowRef_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(Change{Action: ActionCreate, Data: Row{Task: "t"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"create","row_id":null,"data":{"Task":"t"}}`, string(out))

	out, err = json.Marshal(Change{Action: ActionUpdate, RowID: 4, Data: Row{Status: "Complete"}, Reasoning: "done"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"update","row_id":4,"data":{"Status":"Complete"},"reasoning":"done"}`, string(out))
}

func TestChange_Decode(t *testing.T) {
	raw := `{"action":" Update","row_id":"2","data":{"Task":"API","Effort":"0.5"},"reasoning":"continues row 2"}`

	var c Change
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, ActionUpdate, c.Action)
	assert.Equal(t, RowRef(2), c.RowID)
	assert.True(t, c.IsUpdate())
	assert.Equal(t, Effort(0.5), c.Data.Effort)
}

func TestChange_IsUpdate(t *testing.T) {
	assert.False(t, Change{Action: ActionUpdate}.IsUpdate(), "update without row")
	assert.False(t, Change{Action: ActionCreate, RowID: 3}.IsUpdate(), "create with row")
	assert.True(t, Change{Action: ActionUpdate, RowID: 1}.IsUpdate())
}
