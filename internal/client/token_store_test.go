package client

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStore_Empty(t *testing.T) {
	store := NewTokenStore()
	assert.Nil(t, store.Get())
	assert.Empty(t, store.AccessToken())
	assert.Empty(t, store.RefreshToken())
}

func TestTokenStore_SetGet(t *testing.T) {
	store := NewTokenStore()
	store.Set(AuthData{AccessToken: "a1", RefreshToken: "r1"})

	data := store.Get()
	require.NotNil(t, data)
	assert.Equal(t, "a1", data.AccessToken)
	assert.Equal(t, "r1", data.RefreshToken)
	assert.Equal(t, "a1", store.AccessToken())
	assert.Equal(t, "r1", store.RefreshToken())
}

func TestTokenStore_SetReplacesWholePair(t *testing.T) {
	store := NewTokenStore()
	store.Set(AuthData{AccessToken: "a1", RefreshToken: "r1"})
	store.Set(AuthData{AccessToken: "a2"})

	data := store.Get()
	require.NotNil(t, data)
	assert.Equal(t, "a2", data.AccessToken)
	assert.Empty(t, data.RefreshToken, "old refresh token must not survive a Set")
}

func TestTokenStore_Clear(t *testing.T) {
	store := NewTokenStore()
	store.Set(AuthData{AccessToken: "a1", RefreshToken: "r1"})
	store.Clear()
	assert.Nil(t, store.Get())
}

func TestTokenStore_GetReturnsCopy(t *testing.T) {
	store := NewTokenStore()
	store.Set(AuthData{AccessToken: "a1", RefreshToken: "r1"})

	data := store.Get()
	data.AccessToken = "mutated"

	assert.Equal(t, "a1", store.AccessToken())
}

func TestTokenStore_NoTornReads(t *testing.T) {
	store := NewTokenStore()
	store.Set(AuthData{AccessToken: "access-0", RefreshToken: "refresh-0"})

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				data := store.Get()
				require.NotNil(t, data)
				// both fields must come from the same Set
				assert.Equal(t,
					data.AccessToken[len("access-"):],
					data.RefreshToken[len("refresh-"):])
			}
		}()
	}

	for i := 1; i <= 1000; i++ {
		store.Set(AuthData{
			AccessToken:  fmt.Sprintf("access-%d", i),
			RefreshToken: fmt.Sprintf("refresh-%d", i),
		})
	}
	close(stop)
	wg.Wait()
}
