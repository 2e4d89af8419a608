package segment

import (
	"net"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/net/ipv4"
)

// ListenUDP4 opens an IPv4 UDP socket on addr ("host:port", ":port" or ":0").
// A positive tos is written to the IPv4 type-of-service field of outgoing packets.
func ListenUDP4(addr string, tos int) (*net.UDPConn, error) {
	udpAddr, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s failed", addr)
	}
	conn, err := net.ListenUDP("udp4", udpAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen on %s failed", addr)
	}
	if tos > 0 {
		if err := ipv4.NewConn(conn).SetTOS(tos); err != nil {
			_ = conn.Close()
			return nil, errors.Wrapf(err, "set tos %#x failed", tos)
		}
	}
	return conn, nil
}

// ResolveUDP4 resolves the IPv4 UDP address of host and port.
func ResolveUDP4(host string, port uint16) (*net.UDPAddr, error) {
	addr, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(host, strconv.Itoa(int(port))))
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s:%d failed", host, port)
	}
	return addr, nil
}
