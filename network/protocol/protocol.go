/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package protocol names the transport-level network a socket server
// listens on. The service only ever uses NetworkTCP, but the enum-with-
// Code()-method shape leaves room for a future unix or udp transport to
// be added the same way.
package protocol

// NetworkProtocol identifies a transport network.
type NetworkProtocol uint8

const (
	// NetworkTCP is the only network this service binds to.
	NetworkTCP NetworkProtocol = iota + 1
	NetworkTCP4
	NetworkTCP6
)

// Code returns the string net.Listen expects as its network argument.
func (n NetworkProtocol) Code() string {
	switch n {
	case NetworkTCP4:
		return "tcp4"
	case NetworkTCP6:
		return "tcp6"
	default:
		return "tcp"
	}
}

// String returns the same value as Code; network protocols have no
// separate display form.
func (n NetworkProtocol) String() string {
	return n.Code()
}
