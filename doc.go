// Package corosim is the real-time space-object simulation core: an
// entity-component store, a priority-ordered system scheduler, a hybrid
// SGP4/RK2 orbital propagator, and the shared position buffer a renderer
// reads once per frame.
//
// The package does not touch a GPU, a window, or a disk. Everything
// outside those four subsystems -- the renderer, TLE file/network
// fetching, celestial-body meshes, UI panels -- is an external
// collaborator that talks to this package only through Handles,
// components, and the Renderer hook.
package corosim
