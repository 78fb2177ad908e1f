// Package placement implements a force-directed, simulated-annealing
// component placement solver: attractive forces pull connected
// components together, repulsive forces keep them from overlapping,
// and a cooling temperature bounds displacement per iteration until
// the layout converges or the iteration limit is reached.
package placement
