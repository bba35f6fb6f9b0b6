package store_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swellmap/windlayer/geo"
	"github.com/swellmap/windlayer/store"
)

func TestClientFetch(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/grid-weather", r.URL.Path)
		gotQuery = map[string]string{
			"south": r.URL.Query().Get("south"),
			"north": r.URL.Query().Get("north"),
			"west":  r.URL.Query().Get("west"),
			"east":  r.URL.Query().Get("east"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"points":[
			{"latitude":36.5,"longitude":-122.0,"windSpeed":7.2,"windDirectionDeg":290,"temperature":15.1},
			{"latitude":37.0,"longitude":-122.5,"windSpeed":4.0,"windDirectionDeg":310,"temperature":14.0,
			 "waveHeight":1.4,"waveDirectionDeg":285,"wavePeriodSec":12}
		]}`))
	}))
	defer srv.Close()

	c := store.NewClient(srv.URL, 2*time.Second, slog.Default())
	points, err := c.Fetch(context.Background(), geo.Bounds{South: 36, North: 38, West: -123, East: -121})
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, "36.0000", gotQuery["south"])
	assert.Equal(t, "38.0000", gotQuery["north"])
	assert.Equal(t, "-123.0000", gotQuery["west"])
	assert.Equal(t, "-121.0000", gotQuery["east"])

	assert.Equal(t, 7.2, points[0].WindSpeed)
	assert.False(t, points[0].HasWaves())

	require.True(t, points[1].HasWaves())
	assert.Equal(t, 1.4, *points[1].WaveHeightM)
	assert.Equal(t, 12.0, *points[1].WavePeriodS)
}

func TestClientFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream model rebuild", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := store.NewClient(srv.URL, 2*time.Second, slog.Default())
	_, err := c.Fetch(context.Background(), geo.Bounds{South: 36, North: 38, West: -123, East: -121})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestClientFetchBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := store.NewClient(srv.URL, 2*time.Second, slog.Default())
	_, err := c.Fetch(context.Background(), geo.Bounds{South: 36, North: 38, West: -123, East: -121})
	require.Error(t, err)
}
