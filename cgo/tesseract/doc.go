// Package tesseract provides OCR for query image attachments via
// Tesseract. It implements the driven.OCRService interface.
//
// Build requires:
//   - libtesseract and libleptonica headers
//   - a C++ compiler
//
// Without CGO the package builds as a stub that recognises nothing,
// so image queries degrade to text-only queries.
package tesseract
