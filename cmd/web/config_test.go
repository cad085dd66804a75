package main

import (
	"github.com/myrjola/foxtrail/internal/envstruct"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func mapLookupEnv(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func Test_config_gameConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		check   func(t *testing.T, cfg config)
		wantErr bool
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			check: func(t *testing.T, cfg config) {
				gc, err := cfg.gameConfig()
				require.NoError(t, err)
				require.Equal(t, 30, gc.MaxPressure)
				require.Equal(t, 3, gc.RollsPerTurn)
				require.Equal(t, 1500*time.Millisecond, gc.Delays.ClueReveal)
				require.Equal(t, 168*time.Hour, cfg.SessionLifetime)
			},
		},
		{
			name: "half pace",
			env:  map[string]string{"FOXTRAIL_PACE_PERCENT": "50", "FOXTRAIL_MAX_PRESSURE": "20"},
			check: func(t *testing.T, cfg config) {
				gc, err := cfg.gameConfig()
				require.NoError(t, err)
				require.Equal(t, 20, gc.MaxPressure)
				require.Equal(t, 750*time.Millisecond, gc.Delays.ClueReveal)
				require.Equal(t, time.Second, gc.Delays.Message)
			},
		},
		{
			name: "negative pace",
			env:  map[string]string{"FOXTRAIL_PACE_PERCENT": "-1"},
			check: func(t *testing.T, cfg config) {
				_, err := cfg.gameConfig()
				require.Error(t, err)
			},
		},
		{
			name: "unplayable rules",
			env:  map[string]string{"FOXTRAIL_ROLLS_PER_TURN": "0"},
			check: func(t *testing.T, cfg config) {
				_, err := cfg.gameConfig()
				require.Error(t, err)
			},
		},
		{
			name: "seeded games repeat",
			env:  map[string]string{"FOXTRAIL_SEED": "3"},
			check: func(t *testing.T, cfg config) {
				newRand := cfg.newRand()
				a, err := newRand()
				require.NoError(t, err)
				b, err := newRand()
				require.NoError(t, err)
				for range 10 {
					require.Equal(t, a.IntN(1000), b.IntN(1000))
				}
			},
		},
		{
			name:    "malformed number",
			env:     map[string]string{"FOXTRAIL_MAX_PRESSURE": "lots"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config
			err := envstruct.Populate(&cfg, mapLookupEnv(tt.env))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}
