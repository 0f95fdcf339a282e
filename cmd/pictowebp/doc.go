// Package main hosts the pictowebp CLI entrypoint and command graph.
//
// The Cobra-based command tree wires configuration, logging, discovery, the
// batch scheduler, and the run history store into the convert, history, and
// config commands. Keep this package lean: conversion behaviour lives in the
// internal packages and is only surfaced here.
package main
