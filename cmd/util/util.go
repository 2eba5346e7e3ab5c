package util

import (
	"fmt"
	"github.com/ValentinKolb/chunkDB/lib/cache"
	"github.com/ValentinKolb/chunkDB/lib/cache/engines/birch"
	"github.com/ValentinKolb/chunkDB/lib/cache/engines/flat"
	"github.com/ValentinKolb/chunkDB/lib/chunkmap"
	"github.com/ValentinKolb/chunkDB/lib/codec"
	"github.com/ValentinKolb/chunkDB/lib/geom"
	"github.com/VictoriaMetrics/metrics"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strconv"
	"strings"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupMapFlags adds common chunk map flags to a command
func SetupMapFlags(cmd *cobra.Command) {
	key := "chunk-shape"
	cmd.PersistentFlags().String(key, "16,16,16", WrapString("The chunk shape as comma separated power of two side lengths"))

	key = "capacity"
	cmd.PersistentFlags().Int(key, 1024, WrapString("Maximum number of chunks the birch engine keeps decompressed in memory (ignored for flat)"))

	key = "ambient"
	cmd.PersistentFlags().Int(key, 0, WrapString("The value every unwritten point reads as"))
}

// InitCLIConfig initializes configuration from environment variables
func InitCLIConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("chunkdb")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// MapConfig holds the chunk map settings read from flags and environment
// variables. The Metrics and EmitEvents fields are not flag-driven and can be
// set by commands that consume engine metrics or lifecycle events.
type MapConfig struct {
	Engine     string
	Codec      string
	ChunkShape geom.Point3
	Capacity   int
	Ambient    uint16
	EmitEvents bool         // Publish lifecycle events (requires a consumer)
	Metrics    *metrics.Set // Metrics set for the engine counters (nil = engine private set)
}

// String returns a human readable summary of the configuration
func (c *MapConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Map Configuration")
	addField("Engine", c.Engine)
	addField("Codec", c.Codec)
	addField("Chunk Shape", FormatChunkShape(c.ChunkShape))
	addField("Capacity", strconv.Itoa(c.Capacity))
	addField("Ambient", strconv.Itoa(int(c.Ambient)))

	return sb.String()
}

// GetMapConfig reads the chunk map configuration from viper
func GetMapConfig() (*MapConfig, error) {
	shape, err := ParseChunkShape(viper.GetString("chunk-shape"))
	if err != nil {
		return nil, err
	}

	return &MapConfig{
		Engine:     viper.GetString("engine"),
		Codec:      viper.GetString("codec"),
		ChunkShape: shape,
		Capacity:   viper.GetInt("capacity"),
		Ambient:    uint16(viper.GetInt("ambient")),
	}, nil
}

// ParseChunkShape parses a comma separated chunk shape (e.g. "16,16,16")
func ParseChunkShape(s string) (geom.Point3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return geom.Point3{}, fmt.Errorf("invalid chunk shape %q (expected three comma separated values)", s)
	}

	var shape geom.Point3
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return geom.Point3{}, fmt.Errorf("invalid chunk shape %q: %v", s, err)
		}
		shape[i] = int32(v)
	}

	return shape, nil
}

// FormatChunkShape formats a chunk shape the same way ParseChunkShape reads it
func FormatChunkShape(p geom.Point3) string {
	return fmt.Sprintf("%d,%d,%d", p[0], p[1], p[2])
}

// GetCacheFactory creates a cache engine factory based on configuration
func GetCacheFactory(conf *MapConfig) (chunkmap.CacheFactory[uint16, geom.Point3], error) {
	switch conf.Engine {
	case "birch":
		c, err := codec.ForName(conf.Codec)
		if err != nil {
			return nil, err
		}
		return func(chunkVolume int, ambient uint16) (cache.ICache[uint16, geom.Point3], error) {
			return birch.NewBirchCache[uint16, geom.Point3](&birch.Options[uint16]{
				Capacity:    conf.Capacity,
				ChunkVolume: chunkVolume,
				Ambient:     ambient,
				Codec:       c,
				EmitEvents:  conf.EmitEvents,
				Metrics:     conf.Metrics,
			})
		}, nil
	case "flat":
		return func(chunkVolume int, ambient uint16) (cache.ICache[uint16, geom.Point3], error) {
			return flat.NewFlatCache[uint16, geom.Point3](&flat.Options[uint16]{
				ChunkVolume: chunkVolume,
				Ambient:     ambient,
			})
		}, nil
	default:
		return nil, fmt.Errorf("invalid engine %s", conf.Engine)
	}
}

// NewMap creates a chunk map from the given configuration
func NewMap(conf *MapConfig) (chunkmap.IChunkMap[uint16, geom.Point3], error) {
	factory, err := GetCacheFactory(conf)
	if err != nil {
		return nil, err
	}

	return chunkmap.NewChunkMap[uint16, geom.Point3](&chunkmap.Options[uint16, geom.Point3]{
		ChunkShape: conf.ChunkShape,
		Ambient:    conf.Ambient,
		Cache:      factory,
	})
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
