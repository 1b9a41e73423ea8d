// Package models downloads Tesseract traineddata archives from GitHub
// releases and installs them into a local tessdata directory.
package models
