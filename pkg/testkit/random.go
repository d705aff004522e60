package testkit

import (
	"encoding/base64"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/platinummonkey/rococo/pkg/model"
)

var (
	firstNames = []string{"Claude", "Gustav", "Berthe", "Edgar", "Mary", "Camille", "Egon", "Frida", "Ilya", "Sofonisba"}
	lastNames  = []string{"Monet", "Klimt", "Morisot", "Degas", "Cassatt", "Pissarro", "Schiele", "Kahlo", "Repin", "Anguissola"}
	adjectives = []string{"Quiet", "Golden", "Distant", "Blue", "Morning", "Winter", "Hidden", "Silver", "Evening", "Northern"}
	nouns      = []string{"Garden", "Harbour", "Portrait", "Bridge", "Meadow", "Cathedral", "River", "Orchard", "Dancer", "Window"}
	cities     = []string{"Paris", "Vienna", "Madrid", "Florence", "Amsterdam", "Moscow", "London", "Prague", "Lisbon", "Oslo"}
	sentences  = []string{
		"Known for luminous studies of light on water.",
		"Worked mostly outdoors in every season.",
		"Exhibited widely across Europe during the last century.",
		"Collected by private patrons before entering public hands.",
		"Restored in recent years and shown in a new hall.",
	}
)

// pngBytes is a PNG signature followed by an IHDR chunk header, enough for
// content sniffing
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 17)...)

func pick(values []string) string {
	return values[rand.Intn(len(values))]
}

// suffix keeps generated unique columns from colliding across runs
func suffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func sentence() string {
	return pick(sentences) + " " + pick(sentences)
}

// RandomPhoto returns a small PNG data URL
func RandomPhoto() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

// RandomUsername returns a username that passes registration validation
func RandomUsername() string {
	return strings.ToLower(pick(lastNames)) + "_" + suffix()
}

// RandomPassword returns a password of 8 to 12 characters
func RandomPassword() string {
	return suffix()[:8+rand.Intn(4)]
}

// RandomArtist returns an unsaved artist
func RandomArtist() model.Artist {
	return model.Artist{
		Name:      fmt.Sprintf("%s %s %s", pick(firstNames), pick(lastNames), suffix()),
		Biography: sentence(),
		Photo:     RandomPhoto(),
	}
}

// RandomMuseum returns an unsaved museum located in country
func RandomMuseum(country model.Country) model.Museum {
	city := pick(cities)
	return model.Museum{
		Title:       fmt.Sprintf("%s %s Museum %s", city, pick(nouns), suffix()),
		Description: sentence(),
		Photo:       RandomPhoto(),
		Geo:         model.Geo{City: city, Country: country},
	}
}

// RandomPainting returns an unsaved painting by artist, optionally held by museum
func RandomPainting(artist model.Artist, museum *model.Museum) model.Painting {
	return model.Painting{
		Title:       fmt.Sprintf("%s %s %s", pick(adjectives), pick(nouns), suffix()),
		Description: sentence(),
		Photo:       RandomPhoto(),
		Artist:      artist,
		Museum:      museum,
	}
}
