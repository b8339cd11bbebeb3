package util

import (
	"strconv"
	"strings"
)

func ParseAddrPort(addr string) (int, *Err) {
	idx := strings.LastIndex(addr, ":")
	if idx < 0 {
		return 0, NewErr(EcParamsErr, M{
			"addr": addr,
		})
	}
	port, e := strconv.Atoi(addr[idx+1:])
	if e != nil {
		return 0, NewErr(EcParamsErr, M{
			"addr":  addr,
			"error": e.Error(),
		})
	}
	return port, nil
}

// PortToAddr turns a bare port into a listen address.
func PortToAddr(port int) string {
	return ":" + strconv.Itoa(port)
}
