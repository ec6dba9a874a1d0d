// Package toolchain находит и проверяет установку внешнего компилятора HLS.
//
// Поиск — удобное значение по умолчанию, а не обязательный механизм:
// если вызывающий знает оба пути (include и libs), они используются как
// есть и ничего не проверяется.
//
// Ошибки:
//   - *NotFoundError (ErrToolchainNotFound) — компилятора нет в PATH
//   - *ValidationError (ErrToolchainValidation) — в выведенном каталоге нет
//     ожидаемого заголовка или библиотеки; сообщение называет каталог и файл
//   - ErrPartialPaths — задан только один из путей
package toolchain
