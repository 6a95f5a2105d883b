// Package paths resolves the host environment webup installs into.
//
// Resolution order, first match wins:
//
//  1. Both --base-dir and --home-dir given: the "Custom" environment
//  2. A known notebook platform marker variable (Colab, Kaggle) with its
//     fixed base and home paths
//  3. The current working directory as both base and home ("Generic")
//
// Resolve never fails. The result is an immutable types.Environment that
// every other component receives explicitly; nothing here keeps global state.
package paths
