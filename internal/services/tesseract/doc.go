// Package tesseract inspects a Tesseract OCR installation: binary
// presence, version, and which languages its tessdata directory can
// serve. It never performs OCR itself; pgsrip drives Tesseract during
// rips.
package tesseract
