// Package resample changes the sampling rate of recordings before analysis.
//
// [Convert] brings a whole recording to the analysis rate with a rational
// polyphase FIR and compensates the filter delay, so label times keep
// pointing at the same events. [Decimate] reduces a rate by an integer
// factor with a zero-phase windowed FIR, as used for neural recordings.
//
// The Quality modes trade speed for stopband rejection: QualityFast uses 16
// taps per phase, QualityBalanced 32 and QualityBest 64.
package resample
