package diagnostic

import "math/rand/v2"

// Picker chooses an index in [0, n). Production code picks uniformly at
// random; tests inject a fixed picker.
type Picker interface {
	Intn(n int) int
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(n int) int

// Intn calls f(n).
func (f PickerFunc) Intn(n int) int { return f(n) }

// RandomPicker returns a uniform Picker backed by math/rand/v2.
func RandomPicker() Picker {
	return PickerFunc(rand.IntN)
}

// FirstPicker always picks index 0.
func FirstPicker() Picker {
	return PickerFunc(func(int) int { return 0 })
}
