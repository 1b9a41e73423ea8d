// Package media discovers video files eligible for subtitle extraction.
package media
