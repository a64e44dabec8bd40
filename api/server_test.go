package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flaxengeo/lidartraj/internal/traj"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	tr, err := traj.New(2, 1, 0)
	require.NoError(t, err)
	for i := 0; i <= 2; i++ {
		ti := tr.NodeTime(i)
		require.NoError(t, tr.SetSample(i, traj.Sample{
			Position: traj.Vec{ti, 0, 0},
			Velocity: traj.Vec{1, 0, 0},
		}))
	}
	require.NoError(t, tr.FillMissing(false))
	_, err = tr.Solve(traj.DefaultFitConfig())
	require.NoError(t, err)
	return NewServer(tr)
}

func TestPoseHandler(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(testServer(t).ServeMux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/pose?t=1.5")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pose Pose
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pose))
	assert.InDelta(t, 1.5, pose.Position[0], 1e-6)
	assert.InDelta(t, 1.0, pose.Velocity[0], 1e-6)
}

func TestPoseHandlerBadTime(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(testServer(t).ServeMux())
	defer srv.Close()

	for _, q := range []string{"/api/pose", "/api/pose?t=abc", "/api/pose?t=NaN"} {
		resp, err := http.Get(srv.URL + q)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestPoseHandlerMethodNotAllowed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(testServer(t).ServeMux())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/pose?t=1", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestFitHandler(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(testServer(t).ServeMux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/fit")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var info map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, float64(2), info["num_blocks"])
	assert.Equal(t, true, info["solved"])
}
