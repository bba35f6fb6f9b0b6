// Command gridweather serves a synthetic grid-weather API compatible
// with the overlay's store client. Fields are generated from layered
// noise, deterministic per seed, so it doubles as a local dev backend
// and a fixture for end-to-end poking.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	addr := flag.String("addr", ":8091", "listen address")
	seed := flag.Int64("seed", 7, "noise seed for the synthetic fields")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	synth := newSynthesizer(*seed)

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	router.Use(cors.New(corsConfig))

	router.GET("/grid-weather", func(c *gin.Context) {
		south, err := parseCoord(c, "south", -90, 90)
		if err != nil {
			return
		}
		north, err := parseCoord(c, "north", -90, 90)
		if err != nil {
			return
		}
		west, err := parseCoord(c, "west", -180, 180)
		if err != nil {
			return
		}
		east, err := parseCoord(c, "east", -180, 180)
		if err != nil {
			return
		}
		if south > north {
			c.JSON(http.StatusBadRequest, gin.H{"error": "south must not exceed north"})
			return
		}

		points := synth.grid(south, north, west, east)
		c.JSON(http.StatusOK, gin.H{"points": points})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	logger.Info("gridweather listening", "addr", *addr, "seed", *seed)
	if err := router.Run(*addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func parseCoord(c *gin.Context, name string, lo, hi float64) (float64, error) {
	raw := c.Query(name)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s: %q", name, raw)})
		return 0, err
	}
	if v < lo || v > hi {
		err := fmt.Errorf("%s out of range", name)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, err
	}
	return v, nil
}
