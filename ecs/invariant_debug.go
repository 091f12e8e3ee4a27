//go:build ecsdebug

package ecs

const panicOnViolation = true
