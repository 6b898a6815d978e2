// Package build executes the bootstrap pipeline against a container runtime.
//
// A bootstrap turns a launch manifest into a runnable application image in
// one pass: a build container is started from the manifest's base image,
// optional setup commands run first, then the declared dependencies are
// installed, the application source tree is copied in, and the container's
// filesystem is committed and exported as an OCI archive with the
// manifest's entrypoint and environment baked into the image config.
//
// The pipeline is linear and fail-fast. A dependency the installer cannot
// satisfy aborts the build with [ErrDependencyResolution]; a missing or
// unreadable source tree aborts it with [ErrFileSystemOperation]. The build
// container is destroyed in every outcome.
//
// Example usage:
//
//	result, err := build.Run(ctx, rt, build.Options{
//	    Manifest: m,
//	    Output:   "dist",
//	})
//	if err != nil {
//	    return err
//	}
package build
