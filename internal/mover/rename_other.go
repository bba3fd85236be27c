//go:build !linux

package mover

func renameNoReplace(oldPath, newPath string) error {
	return linkRename(oldPath, newPath)
}
