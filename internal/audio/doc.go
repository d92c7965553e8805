// Package audio plays the optional chime that accompanies a new bubble.
// It uses the beep library to decode WAV, OGG and MP3 files.
package audio
