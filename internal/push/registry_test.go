package push

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_JoinIsIdempotent(t *testing.T) {
	r := NewRegistry()

	r.Join("c1", "tracking_TRK001")
	r.Join("c1", "tracking_TRK001")

	require.Equal(t, []string{"c1"}, r.MembersOf("tracking_TRK001"))
}

func TestRegistry_LeaveIsIdempotent(t *testing.T) {
	r := NewRegistry()

	r.Join("c1", "tracking_TRK001")
	r.Leave("c1", "tracking_TRK001")
	r.Leave("c1", "tracking_TRK001")
	// выход из группы, в которой не состоял
	r.Leave("c2", "tracking_TRK001")

	require.Empty(t, r.MembersOf("tracking_TRK001"))
	require.Empty(t, r.Groups("c1"))
}

func TestRegistry_MultipleGroupsAndMembers(t *testing.T) {
	r := NewRegistry()

	r.Join("c1", "tracking_TRK001")
	r.Join("c2", "tracking_TRK001")
	r.Join("c1", "tracking_TRK002")

	require.ElementsMatch(t, []string{"c1", "c2"}, r.MembersOf("tracking_TRK001"))
	require.Equal(t, []string{"c1"}, r.MembersOf("tracking_TRK002"))
	require.ElementsMatch(t, []string{"tracking_TRK001", "tracking_TRK002"}, r.Groups("c1"))
}

func TestRegistry_DisconnectRemovesFromAllGroups(t *testing.T) {
	r := NewRegistry()

	r.Join("c1", "tracking_TRK001")
	r.Join("c1", "tracking_TRK002")
	r.Join("c2", "tracking_TRK001")

	r.Disconnect("c1")

	require.Equal(t, []string{"c2"}, r.MembersOf("tracking_TRK001"))
	require.Empty(t, r.MembersOf("tracking_TRK002"))
	require.Empty(t, r.Groups("c1"))
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			connID := fmt.Sprintf("c%d", i)
			r.Join(connID, "tracking_TRK001")
			r.Join(connID, fmt.Sprintf("tracking_TRK%03d", i))
			_ = r.MembersOf("tracking_TRK001")
			if i%2 == 0 {
				r.Disconnect(connID)
			}
		}(i)
	}
	wg.Wait()

	require.Len(t, r.MembersOf("tracking_TRK001"), 25)
}
