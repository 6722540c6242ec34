package game

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
)

func createTestEngine(b *testing.B, boardSize, numPlayers int) *Engine {
	b.Helper()
	e, err := NewEngine(context.Background(), GameConfig{
		Width:   boardSize,
		Height:  boardSize,
		Players: numPlayers,
		Seed:    12345,
		Rng:     rand.New(rand.NewSource(12345)),
		Logger:  zerolog.New(nil).Level(zerolog.Disabled),
	})
	if err != nil {
		b.Fatalf("Failed to create engine: %v", err)
	}
	if err := e.Start(context.Background()); err != nil {
		b.Fatalf("Failed to start engine: %v", err)
	}
	return e
}

func BenchmarkSnapshot(b *testing.B) {
	for _, size := range []int{10, 20, 30, 50} {
		b.Run(fmt.Sprintf("Board_%dx%d", size, size), func(b *testing.B) {
			engine := createTestEngine(b, size, 4)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = engine.Snapshot()
			}

			b.ReportMetric(float64(size*size), "board_cells")
		})
	}
}

func BenchmarkBoardStringBuilding(b *testing.B) {
	testCases := []struct {
		name      string
		boardSize int
		color     bool
	}{
		{"Small_10x10_Plain", 10, false},
		{"Small_10x10_Color", 10, true},
		{"Large_50x50_Plain", 50, false},
		{"Large_50x50_Color", 50, true},
	}

	for _, tc := range testCases {
		b.Run(tc.name, func(b *testing.B) {
			engine := createTestEngine(b, tc.boardSize, 4)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = RenderMap(engine.Map(), tc.color)
			}

			b.ReportMetric(float64(tc.boardSize*tc.boardSize), "board_cells")
		})
	}
}

func BenchmarkMapClone(b *testing.B) {
	for _, size := range []int{10, 30, 50} {
		b.Run(fmt.Sprintf("Board_%dx%d", size, size), func(b *testing.B) {
			engine := createTestEngine(b, size, 4)
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = engine.Map().Clone()
			}
		})
	}
}

func BenchmarkRandomPlay(b *testing.B) {
	testCases := []struct {
		name        string
		boardSize   int
		numPlayers  int
		turnsToPlay int
	}{
		{"Small_Game_10_Turns", 16, 2, 10},
		{"Medium_Game_50_Turns", 24, 4, 50},
		{"Large_Game_100_Turns", 40, 8, 100},
	}

	for _, tc := range testCases {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			ctx := context.Background()

			for i := 0; i < b.N; i++ {
				b.StopTimer()
				engine := createTestEngine(b, tc.boardSize, tc.numPlayers)
				rng := rand.New(rand.NewSource(int64(i)))
				b.StartTimer()

				for turn := 0; turn < tc.turnsToPlay && !engine.IsGameOver(); turn++ {
					if _, err := PlayRandomTurn(ctx, engine, rng, 8); err != nil {
						b.Fatalf("turn %d: %v", turn, err)
					}
				}
			}

			b.ReportMetric(float64(tc.boardSize*tc.boardSize), "board_cells")
			b.ReportMetric(float64(tc.turnsToPlay), "turns_played")
		})
	}
}
