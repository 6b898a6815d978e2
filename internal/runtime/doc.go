// Package runtime manages containers backed by containerd.
//
// A [Runtime] connects to a containerd daemon and provides image import and
// container creation. OCI archives are imported, tagged, unpacked for the
// target platform, and used to create containers with overlayfs snapshots.
//
// Two kinds of containers exist. Build containers run a parked task
// (sleep infinity) so bootstrap steps can be executed against them with
// [Container.Exec] and the result committed via [Container.Export]. App
// containers run the image's own entrypoint as the task process and stay up
// until stopped; they are what serves the application.
//
// Example usage:
//
//	rt, err := runtime.New("/run/containerd/containerd.sock", "berthd")
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
//	ctr, err := rt.StartContainer(ctx, "base.tar", "dashboard-build", "linux/amd64")
//	if err != nil {
//	    return err
//	}
//	defer ctr.Destroy(ctx)
//
//	result, err := ctr.Exec(ctx, "/bin/sh", "pip install streamlit==1.37.0", nil, "")
//	if err != nil {
//	    return err
//	}
//
//	if err := ctr.Export(ctx, "out", []string{"streamlit", "run", "app.py"}, nil); err != nil {
//	    return err
//	}
package runtime
