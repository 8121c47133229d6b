package handlers

import "testing"

func TestMissionRequestID(t *testing.T) {
	cases := []struct {
		req  MissionRequest
		want int64
	}{
		{MissionRequest{MissionID: 3}, 3},
		{MissionRequest{MissionIDLegacy: 4}, 4},
		{MissionRequest{MissionID: 3, MissionIDLegacy: 4}, 3},
		{MissionRequest{}, 0},
	}
	for _, tc := range cases {
		if got := tc.req.id(); got != tc.want {
			t.Errorf("id(%+v) = %d, want %d", tc.req, got, tc.want)
		}
	}
}
