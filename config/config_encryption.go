package config

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

// EncryptConfirmString prefixes an encrypted config file so it can be told
// apart from a plain one
const EncryptConfirmString = "THORS-HAMMER"

var (
	errAESBlockSize = errors.New("config file data is too small for the AES required block size")
	errKeyLength    = errors.New("config encryption key must be 32 bytes")
)

// IsEncrypted reports whether data carries the encryption prefix
func IsEncrypted(data []byte) bool {
	return bytes.HasPrefix(data, []byte(EncryptConfirmString))
}

// EncryptConfigFile encrypts configData with a 32 byte key and returns it
// with the encryption prefix
func EncryptConfigFile(configData, key []byte) ([]byte, error) {
	if len(key) != 32 {
		return nil, errKeyLength
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	ciphertext := make([]byte, aes.BlockSize+len(configData))
	iv := ciphertext[:aes.BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, err
	}

	stream := cipher.NewCTR(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], configData)

	return append([]byte(EncryptConfirmString), ciphertext...), nil
}

// DecryptConfigFile reverses EncryptConfigFile
func DecryptConfigFile(configData, key []byte) ([]byte, error) {
	if len(key) != 32 {
		return nil, errKeyLength
	}
	configData = bytes.TrimPrefix(configData, []byte(EncryptConfirmString))
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(configData) < aes.BlockSize {
		return nil, errAESBlockSize
	}

	iv := configData[:aes.BlockSize]
	plain := make([]byte, len(configData)-aes.BlockSize)
	cipher.NewCTR(block, iv).XORKeyStream(plain, configData[aes.BlockSize:])
	return plain, nil
}
