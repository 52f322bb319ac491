// Package analysis inspects recorded card traces.
//
//   - [PowerSpectrum] and [DominantFrequency]: float and wobble frequencies
//   - [StepResponse]: settle time and overshoot of an animated axis
package analysis
