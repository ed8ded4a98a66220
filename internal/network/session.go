/*
 * Copyright 2026 The FileRipper Team
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package network holds the SFTP transport that the cache consumes
// through the narrow Session/File interfaces it defines here. Nothing
// outside this package imports ssh or sftp directly.
package network

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/FssAy/pjatk-drives/internal/core"
	"github.com/FssAy/pjatk-drives/internal/logging"
)

// File is the minimal handle the cache needs for one chunked read.
// *sftp.File already satisfies this.
type File interface {
	io.Reader
	io.Closer
	Stat() (os.FileInfo, error)
}

// Session is the abstraction the cache consumes; sftpSession implements
// it over *sftp.Client. Dial is the only place in the module that
// constructs one.
type Session interface {
	Open(path string) (File, error)
	Stat(path string) (os.FileInfo, error)
	ReadDir(path string) ([]os.FileInfo, error)
	Close() error
}

// sftpSession adapts *sftp.Client to Session (Open must return the File
// interface, not the concrete *sftp.File, hence the thin wrapper).
type sftpSession struct {
	ssh  *ssh.Client
	sftp *sftp.Client
}

// Dial establishes the SSH tunnel to addr and authenticates with
// password, then opens the SFTP subsystem on top of it. Both steps are
// blocking network I/O; callers must run this from a worker goroutine,
// never from a store's directive loop.
func Dial(addr, user, password string) (Session, error) {
	log := logging.Get()

	hostKeyCallback := func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		sum := sha256.Sum256(key.Marshal())
		log.Debug().
			Str("host", hostname).
			Str("fingerprint", base64.StdEncoding.EncodeToString(sum[:])).
			Msg("sftp host key observed")
		return nil
	}

	config := &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.Password(password)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         10 * time.Second,
	}

	conn, err := net.DialTimeout("tcp", addr, config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrConnectFailed, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", core.ErrAuthFailed, err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", core.ErrConnectFailed, err)
	}

	log.Info().Str("host", addr).Str("user", user).Msg("sftp session established")
	return &sftpSession{ssh: client, sftp: sftpClient}, nil
}

func (s *sftpSession) Open(path string) (File, error) {
	f, err := s.sftp.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *sftpSession) Stat(path string) (os.FileInfo, error) {
	return s.sftp.Stat(path)
}

func (s *sftpSession) ReadDir(path string) ([]os.FileInfo, error) {
	return s.sftp.ReadDir(path)
}

func (s *sftpSession) Close() error {
	s.sftp.Close()
	return s.ssh.Close()
}
