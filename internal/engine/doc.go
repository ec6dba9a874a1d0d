// Package engine строит порядок выполнения flows.
//
// Включает:
//   - resolver.go — обход графа requires в глубину, поиск циклов, кэш порядков
//   - plan.go     — план выполнения с материализованными passes
//
// Engine не выполняет passes: он только определяет, в каком порядке
// их нужно выполнить, чтобы каждый flow шёл после своих зависимостей.
package engine
