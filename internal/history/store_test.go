package history

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/swingpick/pkg/config"
	"github.com/wonny/swingpick/pkg/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
	store, err := NewStore(t.TempDir(), "Asia/Seoul", log)
	require.NoError(t, err)
	return store
}

func TestWriteAndRead(t *testing.T) {
	store := newTestStore(t)
	msg := "[스윙매매 프로젝트] 테스트 메시지\n1) 삼성전자"

	path, err := store.Write(msg)
	require.NoError(t, err)

	today := time.Now().In(store.loc).Format("2006-01-02")
	assert.Contains(t, path, today+"_picks.txt")

	got, err := store.Read(today)
	require.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestWriteDeterministic(t *testing.T) {
	store := newTestStore(t)

	p1, err := store.Write("동일 메시지")
	require.NoError(t, err)
	p2, err := store.Write("동일 메시지")
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	data, err := os.ReadFile(p2)
	require.NoError(t, err)
	assert.Equal(t, "동일 메시지", string(data))
}

func TestDates(t *testing.T) {
	store := newTestStore(t)

	dates, err := store.Dates()
	require.NoError(t, err)
	assert.Empty(t, dates)

	_, err = store.Write("msg")
	require.NoError(t, err)

	dates, err = store.Dates()
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.Equal(t, time.Now().In(store.loc).Format("2006-01-02"), dates[0])
}

func TestDatesMissingDir(t *testing.T) {
	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
	store, err := NewStore(t.TempDir()+"/does-not-exist", "Asia/Seoul", log)
	require.NoError(t, err)

	dates, err := store.Dates()
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestReadMissingDate(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Read("1999-01-01")
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestNewStoreBadTimezone(t *testing.T) {
	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
	_, err := NewStore(t.TempDir(), "Not/AZone", log)
	require.Error(t, err)
}
