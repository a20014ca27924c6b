// Package vot measures voice onset time for stop consonants in a labelled
// recording.
//
// For every stop on the "phone" tier the release burst is located by two
// independent detectors: a waveform detector that ranks sudden peaks (or
// valleys, depending on the recording's polarity) against the preceding
// sample-to-sample activity, and a spectral detector that ranks frames by
// their mel-spectral change. Candidates from both detectors that fall within
// 4 ms of each other are scored with a linear discriminant trained on TIMIT
// bursts and the best pair above threshold is taken as the burst.
//
// Voicing onset is then read from a voicing track with 5 ms frames. If the
// frame before the burst is voiced the stop is prevoiced and VOT is negative
// (the voiced run is traced back towards the start of the closure);
// otherwise VOT is the distance to the first voiced frame after the burst.
package vot
