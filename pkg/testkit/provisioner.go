package testkit

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/platinummonkey/rococo/pkg/model"
	"golang.org/x/oauth2"
)

// Fixtures describes the state a test needs before it starts
type Fixtures struct {
	// User registers a fresh account and signs it in when a login client is set
	User      bool
	Artists   int
	Museums   int
	Paintings int
}

// Provisioned is what Provision created for a test
type Provisioned struct {
	User      *model.User
	Password  string
	Token     *oauth2.Token
	Artists   []model.Artist
	Museums   []model.Museum
	Paintings []model.Painting
}

// Provisioner creates fixtures through a catalog and removes them when the
// test ends
type Provisioner struct {
	Catalog  Catalog
	Accounts Accounts
	// Login is optional; without it provisioned users carry no token
	Login *LoginClient
	// GatewayURL, when set, reads provisioned profiles through the gateway as
	// the provisioned user
	GatewayURL string
	// Timeout bounds the whole provisioning of one test
	Timeout time.Duration
}

const defaultProvisionTimeout = 30 * time.Second

// Provision creates everything f asks for and fails the test on any error.
// Created catalog entities are deleted on cleanup; accounts are kept.
func (p *Provisioner) Provision(t testing.TB, f Fixtures) *Provisioned {
	t.Helper()
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultProvisionTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out := &Provisioned{}
	t.Cleanup(func() { p.cleanup(t, out) })

	if f.User {
		if err := p.provisionUser(ctx, out); err != nil {
			t.Fatalf("failed to provision user: %v", err)
		}
	}

	for i := 0; i < f.Artists; i++ {
		artist := RandomArtist()
		created, err := p.Catalog.Artists.Create(ctx, &artist)
		if err != nil {
			t.Fatalf("failed to provision artist: %v", err)
		}
		out.Artists = append(out.Artists, *created)
	}

	if f.Museums > 0 {
		country, err := p.RandomCountry(ctx)
		if err != nil {
			t.Fatalf("failed to pick a country: %v", err)
		}
		for i := 0; i < f.Museums; i++ {
			museum := RandomMuseum(*country)
			created, err := p.Catalog.Museums.Create(ctx, &museum)
			if err != nil {
				t.Fatalf("failed to provision museum: %v", err)
			}
			out.Museums = append(out.Museums, *created)
		}
	}

	if f.Paintings > 0 && len(out.Artists) == 0 {
		artist := RandomArtist()
		created, err := p.Catalog.Artists.Create(ctx, &artist)
		if err != nil {
			t.Fatalf("failed to provision artist for paintings: %v", err)
		}
		out.Artists = append(out.Artists, *created)
	}
	for i := 0; i < f.Paintings; i++ {
		artist := out.Artists[i%len(out.Artists)]
		var museum *model.Museum
		if len(out.Museums) > 0 {
			museum = &out.Museums[i%len(out.Museums)]
		}
		painting := RandomPainting(artist, museum)
		created, err := p.Catalog.Paintings.Create(ctx, &painting)
		if err != nil {
			t.Fatalf("failed to provision painting: %v", err)
		}
		out.Paintings = append(out.Paintings, *created)
	}
	return out
}

func (p *Provisioner) provisionUser(ctx context.Context, out *Provisioned) error {
	username, password := RandomUsername(), RandomPassword()
	if err := p.Accounts.Register(ctx, username, password); err != nil {
		return err
	}
	out.Password = password

	if p.Login != nil {
		token, err := p.Login.Login(ctx, username, password)
		if err != nil {
			return err
		}
		out.Token = token
	}

	users := p.Catalog.Users
	if p.GatewayURL != "" && out.Token != nil {
		users = NewAPIClient(p.GatewayURL, oauth2.StaticTokenSource(out.Token)).Users()
	}
	if users == nil {
		out.User = &model.User{Username: username}
		return nil
	}
	user, err := users.Get(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to load profile of %s: %w", username, err)
	}
	out.User = user
	return nil
}

// RandomCountry picks one of the countries the geo service knows
func (p *Provisioner) RandomCountry(ctx context.Context) (*model.Country, error) {
	page, err := p.Catalog.Countries.List(ctx, "", model.Pageable{Size: model.MaxPageSize})
	if err != nil {
		return nil, err
	}
	if len(page.Content) == 0 {
		return nil, fmt.Errorf("no countries available")
	}
	return &page.Content[rand.Intn(len(page.Content))], nil
}

// cleanup deletes in reverse dependency order
func (p *Provisioner) cleanup(t testing.TB, out *Provisioned) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultProvisionTimeout)
	defer cancel()

	for _, painting := range out.Paintings {
		if err := p.Catalog.Paintings.Delete(ctx, painting.ID); err != nil && !IsNotFound(err) {
			t.Errorf("failed to delete painting %s: %v", painting.ID, err)
		}
	}
	for _, museum := range out.Museums {
		if err := p.Catalog.Museums.Delete(ctx, museum.ID); err != nil && !IsNotFound(err) {
			t.Errorf("failed to delete museum %s: %v", museum.ID, err)
		}
	}
	for _, artist := range out.Artists {
		if err := p.Catalog.Artists.Delete(ctx, artist.ID); err != nil && !IsNotFound(err) {
			t.Errorf("failed to delete artist %s: %v", artist.ID, err)
		}
	}
}
