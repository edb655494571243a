package model

// User represents a staff account as stored in the `users` table.  The
// password column holds a record in the form algorithm$iterations$salt$hash
// (see utils.PasswordRecord); the plain password is never stored.
type User struct {
    Username string `db:"username"` // users.username
    Password string `db:"password"` // users.password
}

// RoleStaff is the only role issued to authenticated users.  Staff may list
// and cancel any reservation.
const RoleStaff = "STAFF"
