// Package django provides the tasks that deploy and maintain a Django
// application served by gunicorn under supervisord behind nginx, with a
// PostgreSQL database.
//
//   - Deploy: full deployment of a fresh or existing host
//   - Update: pull the application and restart it
//   - Manage: run a management command inside the project virtualenv
//   - FlushCache: delete one namespace of keys from a redis database
//
// Every task declares the option keys it requires; a run with missing keys
// fails before any command reaches the host.
package django
