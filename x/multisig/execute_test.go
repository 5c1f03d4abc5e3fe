package multisig

import (
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/vaulttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type executorMock struct {
	mock.Mock
}

func (m *executorMock) Execute(ctx vault.Context, db vault.KVStore, action Action) error {
	return m.Called(ctx, db, action).Error(0)
}

func TestExecuteDispatchesAction(t *testing.T) {
	a := vaulttest.NewCondition()
	to := vaulttest.RandomAddr(t)
	exec := &executorMock{}
	f := newFixture(t, exec, 1, a)

	f.submit(a, to, 7, []byte("payload"))
	f.mustDeliver(a, &ApproveMsg{TxIndex: 0})

	want := Action{TxIndex: 0, From: f.vault, To: to, Value: 7, Data: []byte("payload")}
	var executedOnDispatch bool
	exec.On("Execute", mock.Anything, mock.Anything, want).
		Run(func(args mock.Arguments) {
			db := args.Get(1).(vault.KVStore)
			tx, err := f.reader.Transaction(db, 0)
			require.NoError(t, err)
			executedOnDispatch = tx.Executed
		}).
		Return(nil).
		Once()

	// Dry run does not dispatch.
	require.NoError(t, f.check(nil, &ExecuteMsg{TxIndex: 0}))
	exec.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)

	f.mustDeliver(nil, &ExecuteMsg{TxIndex: 0})
	exec.AssertExpectations(t)
	assert.True(t, executedOnDispatch, "executed flag must be stored before dispatch")
	assert.True(t, f.tx(0).Executed)
}

func TestExecuteRollbackAndRetry(t *testing.T) {
	a := vaulttest.NewCondition()
	exec := &executorMock{}
	f := newFixture(t, exec, 1, a)

	f.submit(a, vaulttest.RandomAddr(t), 0, nil)
	f.mustDeliver(a, &ApproveMsg{TxIndex: 0})
	before := len(f.events())

	exec.On("Execute", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.ErrHuman.New("target rejected")).
		Once()
	_, err := f.deliver(a, &ExecuteMsg{TxIndex: 0})
	require.True(t, ErrCallFailed.Is(err), "%+v", err)
	assert.False(t, f.tx(0).Executed)
	assert.Equal(t, uint32(1), f.tx(0).NumApprovals)
	assert.Len(t, f.events(), before)

	exec.On("Execute", mock.Anything, mock.Anything, mock.Anything).
		Return(nil).
		Once()
	res := f.mustDeliver(a, &ExecuteMsg{TxIndex: 0})
	require.Len(t, res.Events, 1)
	ev := res.Events[0].(ExecuteEvent)
	assert.True(t, ev.Executor.Equals(a.Address()))
	assert.True(t, f.tx(0).Executed)
	assert.Len(t, f.events(), before+1)
	exec.AssertExpectations(t)
}

func TestExecuteRollsBackPartialEffects(t *testing.T) {
	a := vaulttest.NewCondition()
	target := vaulttest.RandomAddr(t)
	f := newFixture(t, nil, 1, a)
	f.fund(f.vault, 100)

	var fail = true
	exec := f.handlers[pathExecuteMsg].(ExecuteHandler).exec.(*CashExecutor)
	exec.Register(target, CalleeFunc(func(ctx vault.Context, db vault.KVStore, action Action) error {
		// The value was already paid when the callee runs.
		bal, err := f.ctrl.Balance(db, target)
		if err != nil {
			return err
		}
		if bal != action.Value {
			return errors.ErrInvalidState.Newf("target holds %d", bal)
		}
		if fail {
			return errors.ErrHuman.New("callee failure")
		}
		return nil
	}))

	f.submit(a, target, 40, []byte("call"))
	f.mustDeliver(a, &ApproveMsg{TxIndex: 0})

	_, err := f.deliver(nil, &ExecuteMsg{TxIndex: 0})
	require.True(t, ErrCallFailed.Is(err), "%+v", err)
	assert.Equal(t, uint64(100), f.balance(f.vault))
	assert.Equal(t, uint64(0), f.balance(target))
	assert.False(t, f.tx(0).Executed)

	fail = false
	f.mustDeliver(nil, &ExecuteMsg{TxIndex: 0})
	assert.Equal(t, uint64(60), f.balance(f.vault))
	assert.Equal(t, uint64(40), f.balance(target))
}

func TestExecuteInsufficientVaultBalance(t *testing.T) {
	a := vaulttest.NewCondition()
	to := vaulttest.RandomAddr(t)
	f := newFixture(t, nil, 1, a)

	f.submit(a, to, 5, nil)
	f.mustDeliver(a, &ApproveMsg{TxIndex: 0})

	_, err := f.deliver(nil, &ExecuteMsg{TxIndex: 0})
	require.True(t, ErrCallFailed.Is(err), "%+v", err)
	assert.False(t, f.tx(0).Executed)

	payer := vaulttest.NewCondition()
	f.fund(payer.Address(), 5)
	f.mustDeliver(payer, &DepositMsg{Amount: 5})

	f.mustDeliver(nil, &ExecuteMsg{TxIndex: 0})
	assert.Equal(t, uint64(5), f.balance(to))
	assert.Equal(t, uint64(0), f.balance(f.vault))
}

func TestExecuteWithoutCallee(t *testing.T) {
	a := vaulttest.NewCondition()
	f := newFixture(t, nil, 1, a)

	f.submit(a, vaulttest.RandomAddr(t), 0, []byte("nobody listens"))
	f.mustDeliver(a, &ApproveMsg{TxIndex: 0})

	_, err := f.deliver(nil, &ExecuteMsg{TxIndex: 0})
	require.True(t, ErrCallFailed.Is(err), "%+v", err)
	assert.False(t, f.tx(0).Executed)
}

func TestExecuteSignalProposal(t *testing.T) {
	cases := map[string]struct {
		value   uint64
		data    []byte
		wantErr *errors.Error
	}{
		"plain signal": {},
		"value without target": {
			value:   5,
			wantErr: ErrCallFailed,
		},
		"payload without target": {
			data:    []byte("signal"),
			wantErr: ErrCallFailed,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			a := vaulttest.NewCondition()
			sender := vaulttest.NewCondition()
			f := newFixture(t, nil, 1, a)
			f.fund(sender.Address(), 10)
			f.mustDeliver(sender, &DepositMsg{Amount: 10})

			f.submit(a, nil, tc.value, tc.data)
			f.mustDeliver(a, &ApproveMsg{TxIndex: 0})

			_, err := f.deliver(nil, &ExecuteMsg{TxIndex: 0})
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "%+v", err)
				assert.False(t, f.tx(0).Executed)
			} else {
				require.NoError(t, err)
				assert.True(t, f.tx(0).Executed)
			}
			assert.Equal(t, uint64(10), f.balance(f.vault))
		})
	}
}

func TestExecuteReentrancy(t *testing.T) {
	cases := map[string]struct {
		// propagate makes the callee return the error of the nested call.
		propagate bool
		wantErr   *errors.Error
		wantPaid  uint64
	}{
		"nested failure swallowed": {
			propagate: false,
			wantErr:   nil,
			wantPaid:  10,
		},
		"nested failure propagated": {
			propagate: true,
			wantErr:   ErrCallFailed,
			wantPaid:  0,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			a := vaulttest.NewCondition()
			target := vaulttest.RandomAddr(t)
			f := newFixture(t, nil, 1, a)
			f.fund(f.vault, 100)

			execute := f.handlers[pathExecuteMsg]
			var nestedErr error
			var nestedDepth int
			exec := execute.(ExecuteHandler).exec.(*CashExecutor)
			exec.Register(target, CalleeFunc(func(ctx vault.Context, db vault.KVStore, action Action) error {
				nestedDepth = vault.GetCallDepth(ctx)
				_, nestedErr = execute.Deliver(ctx, db, &vaulttest.Tx{Msg: &ExecuteMsg{TxIndex: action.TxIndex}})
				if tc.propagate {
					return nestedErr
				}
				return nil
			}))

			f.submit(a, target, 10, []byte("again"))
			f.mustDeliver(a, &ApproveMsg{TxIndex: 0})

			_, err := f.deliver(nil, &ExecuteMsg{TxIndex: 0})
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
			if !ErrAlreadyExecuted.Is(nestedErr) {
				t.Fatalf("nested call: want already executed error, got %+v", nestedErr)
			}
			assert.Equal(t, 1, nestedDepth)
			assert.Equal(t, tc.wantPaid, f.balance(target))
			assert.Equal(t, tc.wantErr == nil, f.tx(0).Executed)
		})
	}
}

func TestEventLogAndHistory(t *testing.T) {
	a, b := vaulttest.NewCondition(), vaulttest.NewCondition()
	to := vaulttest.RandomAddr(t)
	f := newFixture(t, nil, 2, a, b)
	f.fund(a.Address(), 10)

	f.mustDeliver(a, &DepositMsg{Amount: 10})
	f.submit(a, to, 3, nil)
	f.submit(b, to, 4, nil)
	f.mustDeliver(a, &ApproveMsg{TxIndex: 1})
	f.mustDeliver(b, &ApproveMsg{TxIndex: 1})
	f.mustDeliver(b, &RevokeMsg{TxIndex: 1})
	f.mustDeliver(b, &ApproveMsg{TxIndex: 1})
	f.mustDeliver(b, &ExecuteMsg{TxIndex: 1})

	var names []string
	for _, e := range f.events() {
		names = append(names, e.EventName())
	}
	assert.Equal(t, []string{
		"deposit", "submit", "submit", "approve", "approve", "revoke", "approve", "execute",
	}, names)

	events := f.events()
	assert.Equal(t, DepositEvent{Sender: a.Address(), Amount: 10, NewBalance: 10}, events[0])
	rev := events[5].(RevokeEvent)
	assert.True(t, rev.Owner.Equals(b.Address()))
	assert.Equal(t, uint64(1), rev.TxIndex)

	hist, err := f.reader.History(f.db)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, uint64(1), hist[0].Index)
	assert.True(t, hist[0].Owner.Equals(b.Address()))
	assert.True(t, hist[0].To.Equals(to))
	assert.Equal(t, uint64(4), hist[0].Value)

	approvers, err := f.reader.Approvers(f.db, 1)
	require.NoError(t, err)
	assert.Len(t, approvers, 2)
	approvers, err = f.reader.Approvers(f.db, 0)
	require.NoError(t, err)
	assert.Empty(t, approvers)
}
