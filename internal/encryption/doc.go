// Package encryption encrypts and decrypts single files with a password.
//
// A file is compressed with zlib and then encrypted with AES-256-CBC under a
// key derived by scrypt from the password and a random 16-byte IV, which
// doubles as the salt. The ciphertext file is the IV followed by the CBC
// output with PKCS#7 padding; there is no header and no integrity tag.
//
// Each file runs through a pipeline of stages connected by io.Pipe, so
// memory use stays at a few chunks regardless of file size. Files in a batch
// are processed one after another.
package encryption
