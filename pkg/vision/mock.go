package vision

import "ClassVision/internal/entity"

// MockLocator is a test implementation of the Locator interface.
// It allows tests to control localization results.
type MockLocator struct {
	faces     []entity.FaceCandidate
	err       error
	annotated []byte
}

// NewMockLocator creates a new MockLocator instance.
func NewMockLocator() *MockLocator {
	return &MockLocator{}
}

// SetFaces sets the candidates that will be returned by Locate.
func (m *MockLocator) SetFaces(faces []entity.FaceCandidate) {
	m.faces = faces
}

// SetError sets the error that will be returned by Locate.
func (m *MockLocator) SetError(err error) {
	m.err = err
}

// SetAnnotated sets the bytes returned by Annotate.
func (m *MockLocator) SetAnnotated(data []byte) {
	m.annotated = data
}

// Locate returns the pre-configured candidates or error.
func (m *MockLocator) Locate(image []byte) ([]entity.FaceCandidate, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.faces, nil
}

// Annotate returns the pre-configured annotation bytes, or the input
// unchanged when none were set.
func (m *MockLocator) Annotate(image []byte, faces []entity.FaceCandidate) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.annotated != nil {
		return m.annotated, nil
	}
	return image, nil
}

// Close is a no-op for the mock locator.
func (m *MockLocator) Close() error {
	return nil
}
