// Package archive implements the archive.org catalog for arkrelay.
//
// It resolves item URLs through the /metadata API, filters and categorizes
// the item's files, and serves file bytes from /download with HTTP range
// resume support.
package archive
