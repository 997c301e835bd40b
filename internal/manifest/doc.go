// Package manifest fills a wizard session from a YAML release file.
//
// The manifest mirrors the wizard's pages so a release can be prepared
// once and submitted from the command line:
//
//	m, err := manifest.Load("release.yaml")
//	if err != nil {
//	    return err
//	}
//	err = manifest.Apply(ctx, session, m, filepath.Dir("release.yaml"))
//
// File paths are relative to the manifest's directory.
package manifest
