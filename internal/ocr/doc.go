// Package ocr reads the numbers printed on the health bars.
//
// Recognition uses the Tesseract engine through gosseract/v2. One engine
// instance is shared per Recognizer and guarded by a mutex, since a
// Tesseract handle holds per-image state.
//
// # Prerequisites
//
// Tesseract and its English training data must be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// A custom training data directory can be set with Options.TessdataPrefix.
//
// # Pipeline
//
//  1. Preprocess: grayscale, upscale, invert (the game draws light digits on a
//     dark bar) and binarize.
//  2. Recognize as a single text line restricted to digits.
//  3. ParseUint the trimmed result; anything else is ErrParse.
package ocr
