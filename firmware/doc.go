// Package firmware provides the host side of an ARC boot: the bootstrap
// steps that run before the interpreter and the services it calls.
//
// Bootstrap:
//   - LoadProgram - read the program image from a boot volume (fs.FS)
//   - Measure     - BLAKE3-256 digest of the image for the boot log
//   - Handoff     - run the next boot stage, a WASI preview1 module
//
// Services (implementations of interp.Services):
//   - Recorder - in-memory console with a scripted keyboard
//   - Terminal - console on an io.Writer, keyboard from a raw-mode tty
//
// Every bootstrap failure is fatal and returned as a structured error with
// phase boot or handoff. Nothing is retried.
package firmware
