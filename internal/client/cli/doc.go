// Package cli is the interactive PostPlanner dashboard.
//
// App wires configuration, the REST client and the dashboard services into a
// read-eval-print loop. The session obtained from login or register lives on
// the App and is passed explicitly to every authorised call.
//
// Commands:
//   - register, login, logout, me
//   - list [status] [platform], stats
//   - add, edit <id>, show <id>, delete <id>
//   - attach <id> <file>, media <id> <key>
//   - help, exit
package cli
