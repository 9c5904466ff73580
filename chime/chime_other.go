//go:build !linux

package chime

func Init()      {}
func PlayReady() {}
func PlayError() {}
