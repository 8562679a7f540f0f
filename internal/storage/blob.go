package storage

import "io"

// BlobStore is the data-file source the geo catalog reads layer files from.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
}
