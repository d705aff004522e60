// Package model defines the Rococo catalogue entities shared by the gateway,
// the backend services and the test harness.
//
// # Entities
//
//   - Artist: name, biography, photo
//   - Museum: title, description, photo, geo (city + country)
//   - Painting: title, description, artist, museum, photo
//   - Country: name, ISO code
//   - User: username, first/last name, avatar
//
// Ids are UUIDs assigned by the owning service's database. Photos are carried
// as data URLs ("data:image/png;base64,...").
//
// # Pagination
//
// Pageable describes a page request and Page[T] a page response, shaped the
// way the frontend expects:
//
//	page := model.NewPage(artists, pageable, total)
package model
