package reactive

import (
	"errors"
	"sync"
	"testing"

	"github.com/inovacc/countrydesk/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Username string `json:"username"`
	JobTitle string `json:"jobTitle"`
}

var emptyProfile = profile{}

// failingStore errors on every operation and records what was attempted.
type failingStore struct {
	mu   sync.Mutex
	sets int
	rms  int
}

var errBroken = errors.New("quota exceeded")

func (f *failingStore) Get(string) (string, bool, error) { return "", false, errBroken }

func (f *failingStore) Set(string, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++

	return errBroken
}

func (f *failingStore) Remove(string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rms++

	return errBroken
}

func TestNew_SeedsFromStorage(t *testing.T) {
	store := database.NewMemory()
	require.NoError(t, store.Set("user", `{"username":"john","jobTitle":"Developer"}`))

	cell := New(store, emptyProfile, "user")

	assert.Equal(t, profile{Username: "john", JobTitle: "Developer"}, cell.Read())
}

func TestNew_DefaultOnEmptyStorage(t *testing.T) {
	store := database.NewMemory()

	cell := New(store, profile{Username: "default"}, "user")

	assert.Equal(t, profile{Username: "default"}, cell.Read())

	_, ok, err := store.Get("user")
	require.NoError(t, err)
	assert.False(t, ok, "construction must not write the default")
}

func TestNew_NilStoreIsMemoryOnly(t *testing.T) {
	cell := New[profile](nil, emptyProfile, "user")

	cell.Write(profile{Username: "john", JobTitle: "Developer"})

	assert.Equal(t, "john", cell.Read().Username)
	assert.Equal(t, emptyProfile, New[profile](nil, emptyProfile, "user").Read())
}

func TestWrite_ThenRead(t *testing.T) {
	values := []profile{
		{Username: "john", JobTitle: "Developer"},
		{},
		{Username: "ana", JobTitle: "Software Developer"},
	}

	cell := New(database.NewMemory(), emptyProfile, "user")

	for _, v := range values {
		cell.Write(v)
		assert.Equal(t, v, cell.Read())
	}
}

func TestWrite_PersistsAcrossRestart(t *testing.T) {
	store := database.NewMemory()

	first := New(store, emptyProfile, "user")
	first.Write(profile{Username: "john", JobTitle: "Developer"})

	stored, ok, err := store.Get("user")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"username":"john","jobTitle":"Developer"}`, stored)

	restarted := New(store, emptyProfile, "user")
	assert.Equal(t, profile{Username: "john", JobTitle: "Developer"}, restarted.Read())
}

func TestWrite_StringStoredVerbatim(t *testing.T) {
	store := database.NewMemory()

	cell := New(store, "light", "theme")
	cell.Write("dark")

	stored, _, _ := store.Get("theme")
	assert.Equal(t, "dark", stored)
	assert.Equal(t, "dark", New(store, "light", "theme").Read())
}

func TestWrite_NamedStringKindStoredVerbatim(t *testing.T) {
	type mode string

	store := database.NewMemory()

	cell := New(store, mode("a"), "mode")
	cell.Write(mode("b"))

	stored, _, _ := store.Get("mode")
	assert.Equal(t, "b", stored)
	assert.Equal(t, mode("b"), New(store, mode("a"), "mode").Read())
}

func TestWrite_AbsentRemovesEntry(t *testing.T) {
	store := database.NewMemory()
	isAbsent := WithAbsent(func(p profile) bool { return p == emptyProfile })

	cell := New(store, profile{Username: "guest", JobTitle: "Visitor"}, "user", isAbsent)
	cell.Write(profile{Username: "john", JobTitle: "Developer"})

	_, ok, _ := store.Get("user")
	require.True(t, ok)

	cell.Write(emptyProfile)

	_, ok, _ = store.Get("user")
	assert.False(t, ok)
	assert.Equal(t, emptyProfile, cell.Read())

	fresh := New(store, profile{Username: "guest", JobTitle: "Visitor"}, "user", isAbsent)
	assert.Equal(t, profile{Username: "guest", JobTitle: "Visitor"}, fresh.Read())
}

func TestClear_RemovesEntryAndRestoresDefault(t *testing.T) {
	store := database.NewMemory()

	cell := New(store, 10, "count")
	cell.Write(42)

	got := make(chan int, 1)
	cell.NotifyOnce(func(v int) { got <- v })

	cell.Clear()

	assert.Equal(t, 10, cell.Read())
	assert.Equal(t, 10, <-got)

	_, ok, _ := store.Get("count")
	assert.False(t, ok)
	assert.Equal(t, 10, New(store, 10, "count").Read())
}

func TestWrite_SwallowsStorageFailures(t *testing.T) {
	store := &failingStore{}

	cell := New[profile](store, emptyProfile, "user")

	var notified []profile

	cell.NotifyOnce(func(p profile) { notified = append(notified, p) })

	assert.NotPanics(t, func() {
		cell.Write(profile{Username: "john", JobTitle: "Developer"})
	})

	assert.Equal(t, "john", cell.Read().Username)
	assert.Len(t, notified, 1)
	assert.Equal(t, 1, store.sets)

	cell.Clear()
	assert.Equal(t, 1, store.rms)
	assert.Equal(t, emptyProfile, cell.Read())
}

func TestNotifyOnce_FiresExactlyOnce(t *testing.T) {
	cell := New(database.NewMemory(), 0, "n")

	cell.Write(1) // before registration, must not be observed

	var calls []int

	sub := cell.NotifyOnce(func(v int) { calls = append(calls, v) })
	assert.True(t, sub.Pending())

	cell.Write(2)
	cell.Write(3)

	assert.Equal(t, []int{2}, calls)
	assert.True(t, sub.Fired())
	assert.False(t, sub.Cancel())
}

func TestNotifyOnce_ListenersRunInRegistrationOrder(t *testing.T) {
	cell := New[int](nil, 0, "n")

	var order []string

	cell.NotifyOnce(func(int) { order = append(order, "first") })
	cell.NotifyOnce(func(int) { order = append(order, "second") })
	cell.NotifyOnce(func(int) { order = append(order, "third") })

	cell.Write(1)

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestNotifyOnce_ReArmInsideCallback(t *testing.T) {
	cell := New[int](nil, 0, "n")

	var seen []int

	var listen func(int)
	listen = func(v int) {
		seen = append(seen, v)
		cell.NotifyOnce(listen)
	}

	cell.NotifyOnce(listen)

	cell.Write(1)
	cell.Write(2)
	cell.Write(3)

	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestNotifyOnce_ListenerSeesValueBeforePersistence(t *testing.T) {
	store := database.NewMemory()
	cell := New(store, "", "k")

	var storedDuringNotify bool

	cell.NotifyOnce(func(string) {
		_, storedDuringNotify, _ = store.Get("k")
	})

	cell.Write("v")

	assert.False(t, storedDuringNotify)

	_, ok, _ := store.Get("k")
	assert.True(t, ok)
}

func TestSubscription_Cancel(t *testing.T) {
	cell := New[int](nil, 0, "n")

	fired := false
	sub := cell.NotifyOnce(func(int) { fired = true })

	assert.True(t, sub.Cancel())
	assert.False(t, sub.Cancel())

	cell.Write(1)

	assert.False(t, fired)
	assert.False(t, sub.Pending())
}

func TestWatch(t *testing.T) {
	cell := New[int](nil, 0, "n")

	var seen []int

	stop := cell.Watch(func(v int) { seen = append(seen, v) })

	cell.Write(1)
	cell.Write(2)
	stop()
	cell.Write(3)

	assert.Equal(t, []int{1, 2}, seen)
}

func TestNext(t *testing.T) {
	cell := New[string](nil, "", "k")

	ch := cell.Next()
	cell.Write("a")
	cell.Write("b")

	assert.Equal(t, "a", <-ch)

	select {
	case v := <-ch:
		t.Fatalf("unexpected second value %q", v)
	default:
	}
}

func TestWrite_ConcurrentWritersAreSerialized(t *testing.T) {
	store := database.NewMemory()
	cell := New(store, 0, "n")

	var (
		mu   sync.Mutex
		seen []int
	)

	stop := cell.Watch(func(v int) {
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
	})
	defer stop()

	var wg sync.WaitGroup

	for i := 1; i <= 50; i++ {
		wg.Add(1)

		go func(v int) {
			defer wg.Done()
			cell.Write(v)
		}(i)
	}

	wg.Wait()

	assert.Len(t, seen, 50)

	// the durable entry matches the last write observed by listeners
	stored, _, _ := store.Get("n")
	assert.Equal(t, encodeInt(t, seen[len(seen)-1]), stored)
	assert.Equal(t, seen[len(seen)-1], cell.Read())
}

func encodeInt(t *testing.T, v int) string {
	t.Helper()

	s, err := encode(v)
	require.NoError(t, err)

	return s
}
