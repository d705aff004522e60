// Package media validates and stores the photos attached to artists,
// museums, paintings and user avatars.
//
// Photos travel as base64 data URLs. ParsePhoto decodes them, sniffs the
// content type with mimetype and enforces the size limit. A Store decides
// where the bytes live: InlineStore keeps the data URL in the database row,
// S3Store uploads the bytes and keeps an s3:// reference.
package media
