package viewstate

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tos-network/redenvelope/action"
	"github.com/tos-network/redenvelope/params"
)

func TestStoreSessionLifecycle(t *testing.T) {
	s := NewStore()
	require.False(t, s.Snapshot().LoggedIn())
	require.True(t, s.Snapshot().Account.Loading)

	s.Dispatch(SessionStarted{Session{Address: "0xa11ce", Network: params.Testnet}})
	s.Dispatch(BalanceFetched{Balance: decimal.NewFromInt(2)})
	s.Dispatch(EnvelopeSent{Ref: EnvelopeReference{ID: "0xenv", Known: true}})
	s.Dispatch(LoadingChanged{Kind: action.KindTransfer, Loading: true})

	st := s.Snapshot()
	require.True(t, st.LoggedIn())
	assert.True(t, st.Account.Balance.Equal(decimal.NewFromInt(2)))
	assert.False(t, st.Account.Loading)
	assert.True(t, st.Loading[action.KindTransfer])
	assert.Equal(t, "0xenv", st.SentEnvelope.ID)

	s.Dispatch(SessionEnded{})
	st = s.Snapshot()
	assert.False(t, st.LoggedIn())
	assert.False(t, st.SentEnvelope.IsSet())
	assert.Empty(t, st.Loading)
	assert.Equal(t, uint64(5), st.Version)
}

func TestStoreSnapshotIsCopy(t *testing.T) {
	s := NewStore()
	s.Dispatch(SessionStarted{Session{Address: "0x1"}})
	snap := s.Snapshot()
	snap.Session.Address = "0x2"
	snap.Loading[action.KindFaucet] = true

	st := s.Snapshot()
	assert.Equal(t, "0x1", st.Session.Address)
	assert.False(t, st.Loading[action.KindFaucet])
}

func TestStoreBalanceCreditAccumulates(t *testing.T) {
	s := NewStore()
	s.Dispatch(BalanceFetched{Balance: decimal.RequireFromString("1.5")})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(BalanceCredited{Delta: decimal.RequireFromString("0.1")})
		}()
	}
	wg.Wait()
	assert.Equal(t, "2.5", s.Snapshot().Account.Balance.String())
}

func TestStoreSubscribe(t *testing.T) {
	s := NewStore()
	var seen []uint64
	unsubscribe := s.Subscribe(func(st State) { seen = append(seen, st.Version) })

	s.Dispatch(AccountLoading{})
	s.Dispatch(BalanceFetchFailed{})
	unsubscribe()
	s.Dispatch(AccountLoading{})

	assert.Equal(t, []uint64{1, 2}, seen)
}

func TestStoreDeliversInVersionOrder(t *testing.T) {
	s := NewStore()
	var (
		mu   sync.Mutex
		seen []uint64
	)
	s.Subscribe(func(st State) {
		mu.Lock()
		seen = append(seen, st.Version)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Dispatch(BalanceCredited{Delta: decimal.RequireFromString("0.001")})
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, 400)
	for i, v := range seen {
		if v != uint64(i+1) {
			t.Fatalf("delivery %d carried version %d", i, v)
		}
	}
}

func TestAbbreviate(t *testing.T) {
	assert.Equal(t, "0xabcd...6789", Abbreviate("0xabcdef0123456789"))
	assert.Equal(t, "0xe0e1...e0e1", Abbreviate("0xe0e1"))
	assert.Equal(t, "0xabc...xabc", Abbreviate("0xabc"))
	assert.Equal(t, "0x8...0x8", Abbreviate("0x8"))
	assert.Equal(t, "0xe0e1...e0e1", EnvelopeReference{ID: "0xe0e1", Known: true}.Display())
	assert.Equal(t, "0xabc...56789", AbbreviateAddress("0xabcdef0123456789"))
	assert.Equal(t, UnknownID, EnvelopeReference{}.Display())
	assert.Equal(t, "0xabcd...6789", EnvelopeReference{ID: "0xabcdef0123456789", Known: true}.Display())
}

func TestFormatBalance(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0", "0.00"},
		{"2", "2.00"},
		{"0.5", "0.500"},
		{"12.345", "12.3"},
		{"2.000000000", "2.00"},
		{"1234.5", "1235"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBalance(decimal.RequireFromString(tt.in)), tt.in)
	}
}
