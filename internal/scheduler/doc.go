// Package scheduler публикует запросы на сборку по cron-расписаниям из
// flow-файла.
//
// Расписания держатся в памяти процесса: при старте для каждого
// вычисляется ближайшее время, на каждом тике наступившие расписания
// публикуют build.requested и сдвигаются на следующее время.
package scheduler
