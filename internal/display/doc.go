// Package display shows word bubbles as GTK4 layer-shell windows.
// It measures each bubble, asks the placement engine where it goes and
// drives its fade and motion frames on the GTK main loop.
package display
