// Interactive IDW raster preview with sliders.
//
// Synthesizes a handful of wind stations over a bounding box, rasterizes
// them into a dense field, and renders the speed ramp so interpolation
// parameters can be tuned visually.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"
	"math/rand"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/swellmap/windlayer/field"
	"github.com/swellmap/windlayer/geo"
	"github.com/swellmap/windlayer/render"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
)

// previewParams holds the interpolation knobs under tuning.
type previewParams struct {
	Power     float32
	RadiusKm  float32
	Stations  int
	Seed      int64
	GridWidth int
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "IDW Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := previewParams{
		Power:     2.0,
		RadiusKm:  200,
		Stations:  18,
		Seed:      42,
		GridWidth: 128,
	}

	bounds := geo.Bounds{South: 34.0, North: 40.0, West: -126.0, East: -118.0}

	img := rl.GenImageColor(params.GridWidth, params.GridWidth, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	samples := makeStations(bounds, params.Stations, params.Seed)
	dense := regenerate(samples, bounds, params)
	updateTexture(texture, dense)
	needsRegen := false

	for !rl.WindowShouldClose() {
		if needsRegen {
			samples = makeStations(bounds, params.Stations, params.Seed)
			dense = regenerate(samples, bounds, params)
			updateTexture(texture, dense)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(params.GridWidth), Height: float32(params.GridWidth)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Station markers in preview space.
		for i := range samples {
			x, y, ok := previewXY(&samples[i], bounds)
			if !ok {
				continue
			}
			rl.DrawCircle(x, y, 3, rl.Black)
		}

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Stations: %d  Max speed: %.1f m/s", len(samples), dense.MaxSpeed), 15, statsY, 16, rl.DarkGray)
		rl.DrawText("Black = no sample within radius", 15, statsY+20, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Interpolation Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Power (IDW exponent)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newPower := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1.0", "4.0",
			params.Power, 1.0, 4.0,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.Power), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newPower != params.Power {
			params.Power = newPower
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Radius (km, zero weight beyond)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newRadius := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"50", "600",
			params.RadiusKm, 50, 600,
		)
		rl.DrawText(fmt.Sprintf("%.0f", params.RadiusKm), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newRadius != params.RadiusKm {
			params.RadiusKm = newRadius
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Stations", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newStations := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"3", "60",
			float32(params.Stations), 3, 60,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Stations), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newStations) != params.Stations {
			params.Stations = int(newStations)
			needsRegen = true
		}
		panelY += 35

		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "100",
			float32(params.Seed), 1, 100,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != params.Seed {
			params.Seed = int64(newSeed)
			needsRegen = true
		}

		rl.EndDrawing()
	}
}

func makeStations(b geo.Bounds, n int, seed int64) []field.GridSample {
	rng := rand.New(rand.NewSource(seed))
	out := make([]field.GridSample, n)
	for i := range out {
		out[i] = field.GridSample{
			Lat:        b.South + rng.Float64()*(b.North-b.South),
			Lon:        b.West + rng.Float64()*(b.East-b.West),
			WindSpeed:  rng.Float64() * 16,
			WindDirDeg: rng.Float64() * 360,
		}
	}
	return out
}

func regenerate(samples []field.GridSample, b geo.Bounds, p previewParams) *field.DenseField {
	ip := field.NewInterpolator(samples, float64(p.Power), float64(p.RadiusKm), 1.0)
	return field.Rasterize(ip, b, p.GridWidth, p.GridWidth)
}

func updateTexture(texture rl.Texture2D, df *field.DenseField) {
	pixels := make([]rl.Color, df.Width*df.Height)
	for row := 0; row < df.Height; row++ {
		for col := 0; col < df.Width; col++ {
			u := (float64(col) + 0.5) / float64(df.Width)
			w := (float64(row) + 0.5) / float64(df.Height)
			vec, ok := df.Sample(u, w)
			if !ok {
				pixels[row*df.Width+col] = rl.Black
				continue
			}
			pixels[row*df.Width+col] = render.SpeedColor(vec.Speed)
		}
	}
	rl.UpdateTexture(texture, pixels)
}

func previewXY(s *field.GridSample, b geo.Bounds) (int32, int32, bool) {
	if s.Lat < b.South || s.Lat > b.North || s.Lon < b.West || s.Lon > b.East {
		return 0, 0, false
	}
	fx := (s.Lon - b.West) / (b.East - b.West)
	y0 := geo.MercatorY(b.North)
	y1 := geo.MercatorY(b.South)
	fy := (geo.MercatorY(s.Lat) - y0) / (y1 - y0)
	return 10 + int32(fx*previewSize), 10 + int32(fy*previewSize), true
}
