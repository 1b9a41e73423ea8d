// Package language maps between the IETF codes pgsrip expects and the
// three-letter codes Tesseract uses for its traineddata files.
package language
