// Package report renders the summary image of the stored dataset.
//
// The image is a 900x600 PNG: a header with the number of countries and the
// last refresh time, then the top countries by estimated GDP with their flags.
// It is regenerated after every successful refresh and kept in object storage
// under ObjectName, so every instance of the API serves the same image.
//
// Flags are downloaded on a best-effort basis: anything that cannot be
// fetched or decoded is simply left out of the picture.
package report
