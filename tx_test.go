package vault_test

import (
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingMsg struct {
	Text string
}

func (pingMsg) Path() string { return "test/ping" }

func (m pingMsg) Validate() error {
	if m.Text == "" {
		return errors.Wrap(errors.ErrEmpty, "text")
	}
	return nil
}

type otherMsg struct{}

func (otherMsg) Path() string    { return "test/other" }
func (otherMsg) Validate() error { return nil }

type tx struct {
	msg vault.Msg
	err error
}

func (t tx) GetMsg() (vault.Msg, error) { return t.msg, t.err }

func TestLoadMsg(t *testing.T) {
	cases := map[string]struct {
		tx      vault.Tx
		wantErr *errors.Error
		want    pingMsg
	}{
		"pointer message": {
			tx:   tx{msg: &pingMsg{Text: "hi"}},
			want: pingMsg{Text: "hi"},
		},
		"value message": {
			tx:   tx{msg: pingMsg{Text: "hi"}},
			want: pingMsg{Text: "hi"},
		},
		"invalid message": {
			tx:      tx{msg: &pingMsg{}},
			wantErr: errors.ErrEmpty,
		},
		"missing message": {
			tx:      tx{},
			wantErr: errors.ErrInvalidMsg,
		},
		"wrong type": {
			tx:      tx{msg: &otherMsg{}},
			wantErr: errors.ErrInvalidType,
		},
		"decoding failure": {
			tx:      tx{err: errors.ErrInvalidInput.New("garbage")},
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var msg pingMsg
			err := vault.LoadMsg(tc.tx, &msg)
			require.True(t, tc.wantErr.Is(err), "got %v", err)
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, msg)
			}
		})
	}
}

func TestGetPath(t *testing.T) {
	assert.Equal(t, "test/ping", vault.GetPath(tx{msg: pingMsg{}}))
	assert.Equal(t, "(missing)", vault.GetPath(tx{}))
}
